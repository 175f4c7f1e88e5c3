// Package cli реализует инструмент командной строки Ghostwriter.
//
// # Обзор
//
// CLI — клиентская утилита оператора для Ghostwriter API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для каналов, очереди постов, черновиков и стиля.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Ghostwriter API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	posts, err := client.ListPending(ctx, 1)
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: ghostwriter post list 1 --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - channel: list, add, show
//   - post: queue, list, show, edit, attach, delete
//   - draft: generate, rewrite
//   - style: add, reset
//
// Каждая группа создаётся через фабричную функцию (NewChannelCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
