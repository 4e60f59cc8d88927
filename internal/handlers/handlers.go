package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"currency_converter/internal/converter"
	"currency_converter/internal/external"
	"currency_converter/internal/models"
	"currency_converter/internal/resolver"
	"currency_converter/internal/utils"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	defaultJournalLimit = 20
	maxJournalLimit     = 500
)

// Converter - операции сервиса конвертации, нужные API
type Converter interface {
	ConvertCustom(ctx context.Context, from, to string, amount decimal.Decimal) (*models.Conversion, error)
	SupportedCurrencies() []resolver.Entry
}

// JournalReader читает журнал конвертаций
type JournalReader interface {
	ListConversions(ctx context.Context, limit int) ([]*models.JournalEntry, error)
}

//  Зависимости для обработчиков
type Handler struct {
	converter Converter
	journal   JournalReader
	logger    *logrus.Logger
}

// Создаём новый экземпляр Handler. journal может быть nil, если журнал выключен
func New(conv Converter, journal JournalReader, logger *logrus.Logger) *Handler {
	return &Handler{
		converter: conv,
		journal:   journal,
		logger:    logger,
	}
}

// @Summary Конвертировать сумму
// @Description Запрашивает текущий курс у провайдера и пересчитывает сумму. Валюты задаются названием (dólar, euro, real...) или трёхбуквенным кодом.
// @Tags conversions
// @Produce json
// @Param from query string true "Исходная валюта (название или код)"
// @Param to query string true "Целевая валюта (название или код)"
// @Param amount query string true "Сумма, разделитель точка или запятая"
// @Success 200 {object} models.ConversionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /convert [get]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from := query.Get("from")
	to := query.Get("to")

	if strings.TrimSpace(from) == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Validation error", "From currency is required")
		return
	}
	if strings.TrimSpace(to) == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Validation error", "To currency is required")
		return
	}

	amount, err := utils.ParseAmount(query.Get("amount"))
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Validation error", "Amount must be a decimal number")
		return
	}

	conversion, err := h.converter.ConvertCustom(r.Context(), from, to, amount)
	if err != nil {
		h.writeConversionError(w, err, from, to)
		return
	}

	response := models.ConversionResponse{
		From:      conversion.From.String(),
		To:        conversion.To.String(),
		Amount:    utils.FormatAmount(conversion.Amount),
		Rate:      conversion.Rate.Rate,
		Result:    utils.FormatAmount(conversion.Result),
		UpdatedAt: conversion.Rate.UpdatedAt,
	}

	h.logger.WithFields(logrus.Fields{
		"from":   response.From,
		"to":     response.To,
		"rate":   response.Rate,
		"amount": response.Amount,
	}).Info("Conversion completed")

	h.writeJSONResponse(w, http.StatusOK, response)
}

// Переводим ошибку конвертации в HTTP статус
func (h *Handler) writeConversionError(w http.ResponseWriter, err error, from, to string) {
	fields := logrus.Fields{"from": from, "to": to}

	switch {
	case errors.Is(err, converter.ErrUnresolvableDesignator):
		h.writeErrorResponse(w, http.StatusBadRequest, "Validation error", err.Error())
	case errors.Is(err, external.ErrUnknownTargetCurrency):
		h.writeErrorResponse(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, external.ErrProviderReportedFailure):
		h.logger.WithError(err).WithFields(fields).Warn("Provider rejected rate lookup")
		h.writeErrorResponse(w, http.StatusBadGateway, "Provider error", err.Error())
	case errors.Is(err, external.ErrTransportFailure):
		h.logger.WithError(err).WithFields(fields).Error("Rate provider unavailable")
		h.writeErrorResponse(w, http.StatusBadGateway, "Provider unavailable", "Failed to reach rate provider")
	default:
		h.logger.WithError(err).WithFields(fields).Error("Conversion failed")
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal error", "Conversion failed")
	}
}

// @Summary Список поддерживаемых названий валют
// @Description Возвращает названия, которые распознаются помимо трёхбуквенных кодов
// @Tags currencies
// @Produce json
// @Success 200 {array} models.CurrencyResponse
// @Router /currencies [get]
func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	entries := h.converter.SupportedCurrencies()

	response := make([]models.CurrencyResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, models.CurrencyResponse{
			Name: entry.Name,
			Code: entry.Code.String(),
		})
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// @Summary Последние конвертации
// @Description Возвращает записи журнала конвертаций, новые первыми
// @Tags conversions
// @Produce json
// @Param limit query int false "Количество записей (по умолчанию 20, максимум 500)"
// @Success 200 {array} models.JournalEntry
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /conversions [get]
func (h *Handler) ListConversions(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		h.writeErrorResponse(w, http.StatusServiceUnavailable, "Journal disabled", "Conversion journal is not enabled")
		return
	}

	limit := defaultJournalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxJournalLimit {
			h.writeErrorResponse(w, http.StatusBadRequest, "Validation error", "Limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	entries, err := h.journal.ListConversions(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list conversions")
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal error", "Failed to list conversions")
		return
	}

	if entries == nil {
		entries = []*models.JournalEntry{}
	}

	h.writeJSONResponse(w, http.StatusOK, entries)
}

// @Summary Health check
// @Description Проверка состояния сервиса
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "currency-converter",
		"journal":   h.journal != nil,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// Записываем JSON ответ
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// Записываем JSON ответ с ошибкой
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, errMsg, message string) {
	response := models.ErrorResponse{
		Error:   errMsg,
		Message: message,
	}

	h.writeJSONResponse(w, statusCode, response)
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/convert", h.Convert).Methods("GET")
	router.HandleFunc("/currencies", h.ListCurrencies).Methods("GET")
	router.HandleFunc("/conversions", h.ListConversions).Methods("GET")
	router.HandleFunc("/health", h.Health).Methods("GET")
}
