package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sciencehub/shx/internal/session"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a session and persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Infof("logging in as %s", email)

	user, token, err := r.client.Login(ctx, email, password)
	if err != nil {
		return r.apiErr(err)
	}

	if err := r.store.SetAuth(user, token); err != nil {
		return fmt.Errorf("logged in but failed to save session: %w", err)
	}

	// Seed favorite flags from the canonical list so hearts are right
	// from the first screen. Best effort.
	if err := r.toggler.Refresh(ctx); err != nil {
		r.logger.Warnf("failed to load favorites: %v", err)
	}

	return r.writePlain("✓ Logged in as %s (%s)\n", user.FullName, user.Role)
}

// AuthRegister creates an account; the backend responds with the same
// envelope as login, so the session is populated identically.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	email := cmd.String("email")
	password := cmd.String("password")

	r.logger.Infof("registering %s", email)

	user, token, err := r.client.Register(ctx, name, email, password)
	if err != nil {
		return r.apiErr(err)
	}

	if err := r.store.SetAuth(user, token); err != nil {
		return fmt.Errorf("registered but failed to save session: %w", err)
	}

	return r.writePlain("✓ Account created, logged in as %s\n", user.Email)
}

// AuthLogout clears the session. Idempotent.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !session.IsAuthenticated(r.store.Current()) {
		return r.writePlain("Not logged in\n")
	}

	if err := r.store.Logout(); err != nil {
		return err
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports the persisted session without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	sess := r.store.Current()

	if !sess.Authenticated() {
		r.writePlain("Session: ✗ logged out\n")
		return nil
	}

	r.writePlain("Session: ✓ logged in\n")
	r.writePlain("User: %s <%s>\n", sess.User.FullName, sess.User.Email)
	r.writePlain("Role: %s\n", sess.User.Role)
	if session.HasElevatedRole(sess) {
		r.writePlain("Access: administrator\n")
	}

	if exp, err := session.TokenExpiry(sess.Token); err == nil {
		if exp.Before(time.Now()) {
			r.writePlain("Token: expired %s\n", exp.Format(time.RFC3339))
		} else {
			r.writePlain("Token: valid until %s\n", exp.Format(time.RFC3339))
		}
	}

	return nil
}

// AuthProfile fetches the profile over the authenticated client.
func (r *Runner) AuthProfile(ctx context.Context, cmd *cli.Command) error {
	if err := r.guard(session.RequireAuthenticated); err != nil {
		return err
	}

	user, err := r.client.Profile(ctx)
	if err != nil {
		return r.apiErr(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("%s <%s>\n", user.FullName, user.Email)
	r.writePlain("Role: %s\n", user.Role)
	return nil
}
