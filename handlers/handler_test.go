package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jptandoc/turo_backend/database"
)

// newTestApp wires a Fiber app against a sqlmock-backed database.DB and
// injects an authenticated JWT local, the same shape Protected() leaves
// behind, so handlers using CallerID work without a real token.
func newTestApp(t *testing.T, callerID uuid.UUID) (*fiber.App, sqlmock.Sqlmock, func()) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	prevDB := database.DB
	database.DB = db

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": callerID.String(),
		})
		c.Locals("user", token)
		return c.Next()
	})

	closer := func() {
		database.DB = prevDB
		conn.Close()
	}
	return app, mock, closer
}

func jsonBody(t *testing.T, payload interface{}) io.Reader {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}
