package services

import "errors"

// Общие ошибки сервисного слоя, используемые в маппинге HTTP.
var (
	// Ресурс не найден
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrChampionNotDecided = errors.New("tournament has no champion yet")

	// Ошибки валидации входных данных
	ErrValidationFailed = errors.New("validation failed")

	// Ошибки хранилища: состояние в памяти остаётся актуальным
	ErrPersistenceFailed = errors.New("tournament state could not be persisted")
)
