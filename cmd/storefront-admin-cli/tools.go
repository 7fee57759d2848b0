package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/target/storefront-admin/internal/auth/permission"
	"github.com/target/storefront-admin/internal/auth/route"
	"github.com/target/storefront-admin/internal/auth/vault"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
)

// inputValue returns the joined args, or the first line of stdin when there are none.
func inputValue(cmdCtx *commandContext, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if cmdCtx.Stdin == nil {
		return "", errors.New("no value given")
	}
	sc := bufio.NewScanner(cmdCtx.Stdin)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return "", errors.New("no value given")
	}
	return strings.TrimRight(sc.Text(), "\r"), nil
}

func newVault(cmdCtx *commandContext) (*vault.Vault, error) {
	v, err := vault.New(cmdCtx.Config.Storage.VaultSecret)
	if err != nil {
		return nil, fmt.Errorf("VAULT_SECRET: %w", err)
	}
	return v, nil
}

func runObfuscate(cmdCtx *commandContext, args []string) error {
	v, err := newVault(cmdCtx)
	if err != nil {
		return err
	}
	value, err := inputValue(cmdCtx, args)
	if err != nil {
		return err
	}
	return writef(cmdCtx.Stdout, "%s\n", v.Obfuscate(value))
}

func runReveal(cmdCtx *commandContext, args []string) error {
	v, err := newVault(cmdCtx)
	if err != nil {
		return err
	}
	value, err := inputValue(cmdCtx, args)
	if err != nil {
		return err
	}
	return writef(cmdCtx.Stdout, "%s\n", v.Reveal(value))
}

func runClassifyRoute(cmdCtx *commandContext, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: classify-route <path> [path...]")
	}
	for _, p := range args {
		if err := writef(cmdCtx.Stdout, "%-32s %s\n", p, route.Classify(p)); err != nil {
			return err
		}
	}
	return nil
}

func runCapabilities(cmdCtx *commandContext, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: capabilities <user|admin|superadmin>")
	}
	role, ok := domainauth.ParseRole(args[0])
	if !ok {
		return fmt.Errorf("unknown role %q", args[0])
	}

	caps := permission.For(&domainauth.Profile{Role: role})
	enc := json.NewEncoder(cmdCtx.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(caps); err != nil {
		return fmt.Errorf("encode capabilities: %w", err)
	}
	return nil
}
