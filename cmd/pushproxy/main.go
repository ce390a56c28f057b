package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/dotoapp/doto-backend/internal/config"
	"github.com/dotoapp/doto-backend/internal/pkg/push"
	"github.com/dotoapp/doto-backend/internal/pushproxy"
)

func main() {
	_ = godotenv.Load()

	lgr := log.Logger

	port := config.GetEnv("PORT", "3002")
	expoURL := config.GetEnv("PUSH_EXPO_URL", push.DefaultExpoURL)
	credentialFile := config.GetEnv("FIREBASE_CREDENTIAL_FILE", "firebase-service-account.json")

	expo := push.NewExpoClient(expoURL)
	fcm := push.NewFCMClient(context.Background(), credentialFile)
	if !fcm.Configured() {
		lgr.Warn().Msg("FCM credentials not found, only Expo delivery is available")
	}

	proxy := pushproxy.NewProxy(expo, fcm, lgr)

	router := gin.Default()
	proxy.SetupRouter(router)

	lgr.Info().Str("port", port).Msg("Push proxy listening")
	if err := router.Run(":" + port); err != nil {
		lgr.Error().Err(err).Msg("Push proxy stopped")
		os.Exit(1)
	}
}
