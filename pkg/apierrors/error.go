package apierrors

import (
	"errors"
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"

	"heunets/internal/core/domain"
	"heunets/pkg/translator"
)

// Response is the envelope every endpoint answers with: status plus either
// data or an error, and an optional human-readable message.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Success(data any) Response {
	return Response{Status: "success", Data: data}
}

func SuccessWithMessage(data any, msgKey string, lang string) Response {
	return Response{Status: "success", Data: data, Message: GetTransMsg(msgKey, lang)}
}

func SuccessMessage(msgKey string, lang string) Response {
	return Response{Status: "success", Message: GetTransMsg(msgKey, lang)}
}

// CreateError generates an error envelope with a translated message.
func CreateError(msgKey string, lang string) Response {
	return Response{Status: "error", Error: GetTransMsg(msgKey, lang)}
}

// MapError converts a service error into its HTTP status and envelope.
// Not-found conditions answer 404, the rest of the domain taxonomy 400 with
// the error's own message; anything else is an unexpected failure and
// answers 500 with a generic translated message.
func MapError(err error, lang string) (int, Response) {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, Response{Status: "error", Error: notFound.Message}
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, Response{Status: "error", Error: validation.Message}
	}

	var state *domain.StateError
	if errors.As(err, &state) {
		return http.StatusBadRequest, Response{Status: "error", Error: state.Message}
	}

	var configuration *domain.ConfigurationError
	if errors.As(err, &configuration) {
		return http.StatusBadRequest, Response{Status: "error", Error: configuration.Message}
	}

	return http.StatusInternalServerError, CreateError(MsgInternalError, lang)
}

// GetTransMsg retrieves the translated message for a key, falling back to
// the key itself.
func GetTransMsg(msgKey string, lang string) string {
	l := i18n.NewLocalizer(translator.Translator, lang, "en")
	m := i18n.LocalizeConfig{}
	m.MessageID = msgKey
	msg, err := l.Localize(&m)
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", msgKey), zap.Error(err))
		return msgKey
	}
	return msg
}
