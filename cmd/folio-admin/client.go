package main

import (
	"github.com/urfave/cli/v2"

	"folio/internal/authstate"
	"folio/internal/client"
)

// getClient builds a client against the configured server, resuming the
// saved session when one exists.
func getClient(c *cli.Context) (*client.Client, error) {
	server := c.String(flagServer)

	cfg, err := loadConfig()
	if err == nil {
		if cfg.Server != "" && !c.IsSet(flagServer) {
			server = cfg.Server
		}
		apiClient, cerr := client.New(server)
		if cerr != nil {
			return nil, cerr
		}
		if cfg.Session != nil {
			if aerr := apiClient.AdoptSession(cfg.Session); aerr != nil {
				return nil, aerr
			}
		}
		return apiClient, nil
	}

	return client.New(server)
}

// getHolder wraps the client in an auth-state holder pointed at the
// server's session sync endpoint. Callers must Close it so in-flight
// sync emissions finish before the process exits.
func getHolder(apiClient *client.Client) *authstate.Holder {
	return authstate.New(apiClient, apiClient.BaseURL()+"/auth/callback")
}
