package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

const (
	maxBodyBytes = 1 << 20

	kindUnauthorized = "UNAUTHORIZED"

	msgInternalError = "внутренняя ошибка сервера"
)

// ErrEmptyBody возвращается при пустом теле запроса
var ErrEmptyBody = errors.New("request body is empty")

// ErrInvalidID возвращается при неположительном ID в пути
var ErrInvalidID = errors.New("id must be positive")

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// DecodeJSON читает тело запроса в v, неизвестные поля отклоняются
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// PathID читает положительный int64 из переменной маршрута
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// RespondJSON пишет ответ в формате JSON
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ошибку с видом и сообщением
func RespondError(w http.ResponseWriter, status int, kind, message string) {
	RespondJSON(w, status, ErrorResponse{Kind: kind, Message: message})
}

// RespondDomainError выбирает HTTP статус по виду ошибки
func RespondDomainError(w http.ResponseWriter, err error, message string) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		RespondInternalError(w)
		return
	}
	RespondError(w, StatusForKind(kind), kind, message)
}

// StatusForKind HTTP статус для вида ошибки
func StatusForKind(kind string) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindNotFoundOrAlreadyProcessed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, domain.KindValidation, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, domain.KindNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, domain.KindConflict, message)
}

// RespondAlreadyProcessed запись не найдена или уже в другом статусе
func RespondAlreadyProcessed(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, domain.KindNotFoundOrAlreadyProcessed, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, kindUnauthorized, message)
}

// RespondInternalError детали ошибки наружу не отдаются
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, domain.KindInternal, msgInternalError)
}
