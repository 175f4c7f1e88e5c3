// Package api содержит HTTP API оператора.
//
// Структура:
//   - handler.go         — Handler с DI (stores, admission, generator, logger)
//   - routes.go          — регистрация маршрутов
//   - middleware.go      — middleware (logging, recovery, metrics)
//   - response.go        — унифицированные JSON-ответы и обработка ошибок
//   - dto.go             — Data Transfer Objects (request/response)
//   - channel_handler.go — обработчики для /channels
//   - post_handler.go    — обработчики для /posts и очереди канала
//   - draft_handler.go   — генерация и рерайт черновиков
//   - style_handler.go   — примеры стиля канала
//
// API предоставляет REST endpoints для каналов, очереди постов,
// черновиков и примеров стиля.
package api
