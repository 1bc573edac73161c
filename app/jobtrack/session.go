package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yoockh/jobtrack/config"
	"github.com/yoockh/jobtrack/internal/client"
	"github.com/yoockh/jobtrack/internal/logger"
	mongorepo "github.com/yoockh/jobtrack/internal/repositories/mongo"
	"github.com/yoockh/jobtrack/internal/tracker"
)

const (
	storeHTTP  = "http"
	storeMongo = "mongo"
)

type options struct {
	server    string
	token     string
	storeKind string
	user      string
	verbose   bool
	color     bool

	// openStore replaces the store selection in tests.
	openStore func(ctx context.Context, log *logrus.Logger) (tracker.Store, string, func(), error)
}

// session opens the store and loads the user's list. A failed load is reported
// and the session continues with an empty list.
func (o *options) session(cmd *cobra.Command) (*tracker.Controller, func(), error) {
	ctx := cmd.Context()
	log := logger.NewCLI(cmd.ErrOrStderr(), o.verbose)

	open := o.openStore
	if open == nil {
		open = o.defaultStore
	}
	store, userID, closeFn, err := open(ctx, log)
	if err != nil {
		return nil, nil, err
	}

	ctl := tracker.New(store, userID, log)
	if err := ctl.Load(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", errorText(err))
	}
	return ctl, closeFn, nil
}

func (o *options) defaultStore(ctx context.Context, log *logrus.Logger) (tracker.Store, string, func(), error) {
	userID := o.user
	if userID == "" && o.token != "" {
		sub, err := subjectOf(o.token)
		if err != nil {
			return nil, "", nil, err
		}
		userID = sub
	}
	if userID == "" {
		return nil, "", nil, errors.New("not signed in: pass --token or set JOBTRACK_TOKEN")
	}

	switch o.storeKind {
	case storeHTTP:
		if o.token == "" {
			return nil, "", nil, errors.New("--store=http needs a token")
		}
		return client.New(o.server, o.token, nil, log), userID, func() {}, nil

	case storeMongo:
		if err := config.InitMongo(); err != nil {
			return nil, "", nil, err
		}
		if err := config.EnsureMongoIndexes(); err != nil {
			return nil, "", nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = config.CloseMongo(ctx)
		}
		return mongorepo.NewApplicationRepo(config.MongoDatabase()), userID, closeFn, nil

	default:
		return nil, "", nil, fmt.Errorf("unknown store %q (want http or mongo)", o.storeKind)
	}
}

// subjectOf reads the token subject without verifying it; the server verifies.
func subjectOf(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("malformed token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
