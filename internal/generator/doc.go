// Package generator — клиент языковой модели для черновиков постов.
//
// Используется OpenAI-совместимый endpoint /chat/completions (по умолчанию Groq).
//
// Операции:
//   - SplitIntoPosts: тема → один или несколько черновиков в стиле канала
//   - Rewrite: переписать текст в стиле канала
//
// Стиль канала — до 7 случайных примеров из style_examples.
// Ориентир длины выводится из средней длины примеров (LengthGuide).
// В запрос добавляются начала последних постов канала, чтобы модель
// не повторяла сюжеты.
//
// Временные ошибки (сеть, 429, 5xx) повторяются с экспоненциальной
// задержкой. Ошибки возвращаются вызывающему, пустой результат
// никогда не подменяет ошибку.
package generator
