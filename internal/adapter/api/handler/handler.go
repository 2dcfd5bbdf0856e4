package handler

import (
	"time"

	"sellerconnect/internal/usecase"
)

var (
	contactHandler   *ContactHandler
	ratingHandler    *RatingHandler
	promptHandler    *PromptHandler
	telemetryHandler *TelemetryHandler
)

func Setup(
	contactUseCase *usecase.ContactUseCase,
	ratingUseCase *usecase.RatingUseCase,
	promptUseCase *usecase.PromptUseCase,
	telemetryUseCase *usecase.TelemetryUseCase,
	promptInterval time.Duration,
) {
	contactHandler = NewContactHandler(contactUseCase)
	ratingHandler = NewRatingHandler(ratingUseCase)
	promptHandler = NewPromptHandler(promptUseCase, promptInterval)
	telemetryHandler = NewTelemetryHandler(telemetryUseCase)
}

func GetContactHandler() *ContactHandler {
	return contactHandler
}

func GetRatingHandler() *RatingHandler {
	return ratingHandler
}

func GetPromptHandler() *PromptHandler {
	return promptHandler
}

func GetTelemetryHandler() *TelemetryHandler {
	return telemetryHandler
}
