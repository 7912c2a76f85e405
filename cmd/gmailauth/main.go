// Command gmailauth authorizes the inbox watcher once and stores the token.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/justsurfingit/carreira-ia/internal/auth"
	"github.com/justsurfingit/carreira-ia/internal/config"
	"github.com/justsurfingit/carreira-ia/internal/logger"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load config")
	}

	oauthCfg, err := auth.GmailConfig(cfg.Inbox.CredentialsPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("cannot read Gmail credentials")
	}

	fmt.Printf("Open this link in your browser, then paste the authorization code:\n%s\n\ncode: ", auth.AuthURL(oauthCfg))
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		logger.Log.WithError(err).Fatal("unable to read authorization code")
	}

	if err := auth.ExchangeCode(context.Background(), oauthCfg, strings.TrimSpace(code), cfg.Inbox.TokenPath); err != nil {
		logger.Log.WithError(err).Fatal("token exchange failed")
	}
	logger.LogSuccess("Gmail token saved to " + cfg.Inbox.TokenPath)
}
