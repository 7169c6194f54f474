// utils/firebase.go
package utils

import (
	"context"

	"groundbook/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FCMClient is nil when push notifications are not configured.
var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client.
func FirebaseInit() {
	path := config.AppConfig.FirebaseCredentialsPath
	if path == "" {
		GetLogger().Warn("firebase: FIREBASE_CREDENTIALS_PATH not set, push notifications disabled")
		return
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(path))
	if err != nil {
		GetLogger().Fatal("firebase: error initializing app", zap.Error(err))
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		GetLogger().Fatal("firebase: error getting Messaging client", zap.Error(err))
	}

	FCMClient = client
}
