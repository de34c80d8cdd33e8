package database

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const ctxSessionKey = "db_session"

// Session acquires a dedicated connection for the lifetime of one request
// and returns it to the pool once the handler chain has finished, whether
// the handlers succeeded, failed or panicked.
func Session(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := db.Conn(c.Request.Context())
		if err != nil {
			log.Ctx(c.Request.Context()).Error().Err(err).Msg("acquire db connection")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "database unavailable"})
			return
		}
		defer func() {
			if err := conn.Close(); err != nil {
				log.Ctx(c.Request.Context()).Warn().Err(err).Msg("release db connection")
			}
		}()

		c.Set(ctxSessionKey, conn)
		c.Next()
	}
}

// SessionFrom returns the connection bound to the request by Session, or
// nil when the middleware was not installed.
func SessionFrom(c *gin.Context) Querier {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return nil
	}
	conn, _ := v.(*sql.Conn)
	if conn == nil {
		return nil
	}
	return conn
}
