package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/mimichq/mimic-backend/dto"
	"github.com/mimichq/mimic-backend/models"
	"github.com/mimichq/mimic-backend/usecases"
)

func handleSendMagicLink(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var body dto.SendMagicLinkBody
		if err := c.ShouldBindJSON(&body); err != nil {
			presentError(c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		usecase := uc.NewMagicLinkUsecase()
		err := usecase.SendMagicLink(c.Request.Context(), body.Email)
		if presentError(c, err) {
			return
		}

		// Always accepted, whether or not the email matches an account.
		c.Status(http.StatusAccepted)
	}
}

func handleVerifyMagicLink(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			presentError(c, errors.Wrap(models.BadParameterError, "missing token"))
			return
		}

		usecase := uc.NewMagicLinkUsecase()
		sessionToken, err := usecase.VerifyMagicLink(c.Request.Context(), token)
		if presentError(c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.SessionToken{
			AccessToken: sessionToken,
			TokenType:   "Bearer",
		})
	}
}
