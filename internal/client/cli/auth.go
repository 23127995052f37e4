package cli

import (
	"context"
	"log"
	"os"

	"github.com/ciclone-ptc/ciclone/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and authenticates against the
// server. On success the access token is kept inside the API client and the
// user name is shown in the prompt. The password is securely wiped before
// returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	usuario, err := a.api.Login(ctx, email, password)
	if err != nil {
		log.Printf("Login unsuccessfull: %s", err.Error())
		return err
	}

	log.Printf("Login successfull")
	a.userName = usuario.Email
	a.setMode(ModeOnline)
	return nil
}
