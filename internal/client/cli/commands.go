package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ciclone-ptc/ciclone/internal/netx"
)

// Estatisticas fetches and prints the aggregate platform counters.
func (a *App) Estatisticas(ctx context.Context) error {
	stats, err := a.api.Estatisticas(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Usuarios: %d", stats.TotalUsuarios))
	printlnFn(fmt.Sprintf("Clicks:   %d", stats.TotalClicks))
	printlnFn(fmt.Sprintf("Anuncios: %d", stats.TotalAnuncios))
	if stats.TopSaldoNome != "" {
		printlnFn(fmt.Sprintf("Top saldo: %s (R$ %s)", stats.TopSaldoNome, stats.TopSaldo))
	}
	if stats.TopClickerNome != "" {
		printlnFn(fmt.Sprintf("Top clicker: %s (%d clicks)", stats.TopClickerNome, stats.TopClicks))
	}
	return nil
}

// AtivarCreditos prompts for an email and re-enables credit reception for
// that account.
func (a *App) AtivarCreditos(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	usuario, err := a.api.AtivarCreditos(ctx, email)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Account %s receiving=%v capped=%v",
		usuario.Email, usuario.RecebendoCreditos, usuario.LimiteAtingido))
	return nil
}

// IniciarCreditos bootstraps the rotation and prints the receiving account.
func (a *App) IniciarCreditos(ctx context.Context) error {
	usuario, err := a.api.IniciarCreditos(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Receiving: #%d %s (saldo R$ %s)", usuario.ID, usuario.Email, usuario.Saldo))
	return nil
}

// Dashboard prompts for an account id and prints the account with its click
// counters. Requires a prior login.
func (a *App) Dashboard(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Enter account id", os.Stdout)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		printlnFn("Invalid id:", raw)
		return err
	}

	usuario, clicks, err := a.api.Dashboard(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("#%d %s <%s> saldo R$ %s", usuario.ID, usuario.Nome, usuario.Email, usuario.Saldo))
	printlnFn(fmt.Sprintf("Clicks: total=%d hoje=%d", clicks.TotalClicks, clicks.ClicksHoje))
	return nil
}

// uploadToPresignedURL is a test seam for netx.UploadToS3PresignedURL.
var uploadToPresignedURL = netx.UploadToS3PresignedURL

// UploadAvatar reads a local image file and uploads it to object storage via
// a presigned URL obtained from the server. Requires a prior login.
func (a *App) UploadAvatar(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter image file path", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading file: %s", err.Error())
		return err
	}

	key, url, err := a.api.AvatarUploadURL(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if err := uploadToPresignedURL(url, data); err != nil {
		log.Printf("Upload failed: %s", err.Error())
		return err
	}

	printlnFn("Uploaded as", key)
	return nil
}

// RegistrarClick prompts for an email and credits one click on its behalf.
func (a *App) RegistrarClick(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	result, err := a.api.RegistrarClick(ctx, email)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Credited account #%d, new balance R$ %s", result.BeneficiadoID, result.NovoSaldo))
	if result.LimiteAtingido {
		printlnFn("Cap reached, rotation moved on")
	}
	return nil
}
