package sqlite

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/internal/grammar"
	"github.com/sscalderod/ProyectoFinalLenguajesSM/server/dao"
)

// conversions between dao field types and the types they are stored as.

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}
	*target = u
	return nil
}

func convertToDB_Role(r dao.Role) int64 {
	return int64(r)
}

func convertFromDB_Role(i int64, target *dao.Role) error {
	r := dao.Role(i)
	if _, err := dao.ParseRole(r.String()); err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}
	*target = r
	return nil
}

func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}

	email, err := mail.ParseAddress(s)
	if err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}
	*target = email
	return nil
}

// times are stored as nanoseconds since the epoch; token signing keys depend
// on the logout time surviving a round trip exactly.
func convertToDB_Time(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func convertFromDB_Time(i int64) time.Time {
	if i == 0 {
		return time.Time{}
	}
	return time.Unix(0, i)
}

func convertToDB_Grammar(g grammar.Grammar) []byte {
	return rezi.EncBinary(g)
}

func convertFromDB_Grammar(data []byte, target *grammar.Grammar) error {
	var g grammar.Grammar
	if _, err := rezi.DecBinary(data, &g); err != nil {
		return fmt.Errorf("%w: %s", dao.ErrDecodingFailure, err.Error())
	}
	*target = g
	return nil
}
