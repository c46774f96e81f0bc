/*
Gramlabd starts a GramLab server and begins listening for new connections.

Usage:

	gramlabd [flags]
	gramlabd [flags] -l [[ADDRESS]:PORT]

Once started, the GramLab server will listen for HTTP requests and respond to
them using REST protocol. Clients log in, store grammars, and then ask for the
FIRST/FOLLOW sets and parse tables of a grammar or have it parse strings. By
default, it will listen on localhost:8080.

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but a secret must be
given via either CLI flags, environment variable, or config file if running in
production.

On first start, an "admin" user with the password "password" is created.

The flags are:

	-v, --version
		Give the current version of the GramLab server and then exit.

	-c, --config FILE
		Read settings from the given TOML file. Flags and environment variables
		take precedence over it. Recognized keys are listen, token_secret,
		database, and unauth_delay_ms.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		GRAMLAB_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable GRAMLAB_TOKEN_SECRET.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable GRAMLAB_DATABASE, and if that is
		not given an in-memory database is used.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"

	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/version"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "GRAMLAB_LISTEN_ADDRESS"
	EnvSecret = "GRAMLAB_TOKEN_SECRET"
	EnvDB     = "GRAMLAB_DATABASE"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitInitError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of GramLab server and then exit.")
	flagConfig  = pflag.StringP("config", "c", "", "Read server settings from the given TOML file.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (GramLab v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(ExitUsageError)
	}

	var cfg server.Config
	if *flagConfig != "" {
		var err error
		cfg, err = server.LoadConfig(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
			os.Exit(ExitUsageError)
		}
	}

	if listenAddr := setting("listen", *flagListen, EnvListen); listenAddr != "" {
		cfg.ListenAddress = listenAddr
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = "localhost:8080"
	}
	addr, port, err := server.ParseListenAddress(cfg.ListenAddress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Listen address: %s\nDo -h for help.\n", err.Error())
		os.Exit(ExitUsageError)
	}

	if dbConnStr := setting("db", *flagDB, EnvDB); dbConnStr != "" {
		cfg.DB, err = server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
			os.Exit(ExitUsageError)
		}
	}

	if tokSecStr := setting("secret", *flagSecret, EnvSecret); tokSecStr != "" {
		cfg.TokenSecret = []byte(tokSecStr)
	}
	if len(cfg.TokenSecret) > 0 {
		cfg.TokenSecret = padSecret(cfg.TokenSecret)
		if len(cfg.TokenSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(cfg.TokenSecret), server.MaxSecretSize)
			os.Exit(ExitUsageError)
		}
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			log.Printf("FATAL could not generate token secret: %s", err.Error())
			os.Exit(ExitInitError)
		}

		// yell at the user bc they should know their secret might be bad
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	gls, err := server.New(cfg)
	if err != nil {
		log.Printf("FATAL could not start server: %s", err.Error())
		os.Exit(ExitInitError)
	}
	log.Printf("DEBUG Server initialized")

	// immediately create the admin user so we have someone we can log in as.
	created, err := gls.CreateInitialAdmin(context.Background())
	if err != nil {
		log.Printf("ERROR could not create initial admin user: %v", err)
		os.Exit(ExitInitError)
	}
	if created {
		log.Printf("INFO  Added initial admin user %q with password %q...", server.InitialAdminUsername, server.InitialAdminPassword)
	}

	log.Printf("INFO  Starting GramLab server %s...", version.ServerCurrent)
	gls.ServeForever(addr, port)
}

// setting gives the value of the flag with the given name if it was set on the
// command line and the value of the environment variable env otherwise.
func setting(flagName, flagVal, env string) string {
	if pflag.Lookup(flagName).Changed {
		return flagVal
	}
	return os.Getenv(env)
}

// padSecret repeats secret until it is at least server.MinSecretSize bytes.
func padSecret(secret []byte) []byte {
	for len(secret) < server.MinSecretSize {
		doubled := make([]byte, len(secret)*2)
		copy(doubled, secret)
		copy(doubled[len(secret):], secret)
		secret = doubled
	}
	return secret
}
