package api

import (
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/usecases"
)

func handleIdentityWebhook(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			presentError(c, errors.Wrap(models.BadParameterError, "could not read payload"))
			return
		}

		usecase, err := uc.NewIdentityWebhookUsecase()
		if presentError(c, err) {
			return
		}

		err = usecase.HandleEvent(
			c.Request.Context(),
			c.GetHeader("webhook-id"),
			c.GetHeader("webhook-timestamp"),
			c.GetHeader("webhook-signature"),
			payload,
		)
		if presentError(c, err) {
			return
		}

		c.Status(http.StatusNoContent)
	}
}
