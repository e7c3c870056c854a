package api

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		log.Warn().Msgf("unexpected binding engine %T; custom validations not registered", binding.Validator.Engine())
		return
	}
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		log.Error().Err(err).Msg("Failed to register notblank validation")
	}
}

// notBlank rejects strings made only of whitespace, which "required" lets through.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
