package answer

import (
	"fmt"
	"strings"

	"github.com/askitmo/askitmo/internal/news"
	"github.com/askitmo/askitmo/internal/search"
)

const querySystemPrompt = "Ты помощник, который преобразует пользовательские вопросы в наиболее релевантные поисковые запросы " +
	"для поисковых систем. Сформируй четкий и точный запрос, который позволит получить максимально релевантные результаты."

const queryPromptTemplate = `Пользовательский запрос: "%s"

Сформируй наиболее релевантный поисковый запрос для поисковой системы на основе данного вопроса.
Ответь только строкой с поисковым запросом без дополнительных пояснений.`

const answerSystemPrompt = "Ты помощник, предоставляющий информацию об Университете ИТМО. " +
	"Используй предоставленные данные из новостей и результатов поиска для формирования ответа. " +
	"Если вопрос как-то относится с недавними событиями (после начала 2024 года), предпочитай использовать информацию из новостей. " +
	"В противном случае используй результаты поиска. " +
	"Выбери от одного до трёх НАИБОЛЕЕ релевантных запросу источников из представленных и запиши их в поле 'sources'. " +
	"Вставляй ссылки на источники не обработанными, в том числе и на результаты поиска. Источники бери из поля url в результатах поиска и новостях. " +
	"ВНИМАТЕЛЬНО СЛЕДИ чтобы источники были ссылками, там был в начале http или https. " +
	"Если вопрос с открытым ответом, установи 'answer' в null. " +
	"Если в вопросе есть варианты ответа, предоставь ответ в поле 'answer'. " +
	"В начале поля reasoning пиши YandexGPT. " +
	"Верни ответ в формате JSON строго со следующими ключами: id, answer, reasoning, sources."

const answerPromptTemplate = `Контекст из новостей:
%s

Контекст из результатов поиска:
%s

Запрос: "%s"

Пожалуйста, ответь только в формате JSON строго со следующими ключами: id, answer, reasoning, sources.
Не добавляй ничего кроме JSON. Пример формата ответа:

{
    "id": 999,
    "answer": 2,
    "reasoning": "YandexGPT. Главный кампус ИТМО находится в Санкт-Петербурге.",
    "sources": ["https://itmo.ru"]
}

Для открытых вопросов, поле "answer" должно быть null.
Вставляй наиболее релевантные источники как указано выше. Источники бери из поля url в результатах поиска и новостях.
В начале поля reasoning ВСЕГДА пиши YandexGPT.`

// NoNewsSentence replaces the news block when the feed yields nothing.
const NoNewsSentence = "Нет актуальных новостей."

func buildQueryPrompt(question string) string {
	return querySystemPrompt + "\n\n" + fmt.Sprintf(queryPromptTemplate, question)
}

func buildAnswerPrompt(question string, results []search.Result, newsItems []news.Item) string {
	return answerSystemPrompt + "\n\n" +
		fmt.Sprintf(answerPromptTemplate, renderNews(newsItems), renderSearchResults(results), question)
}

func renderNews(items []news.Item) string {
	if len(items) == 0 {
		return NoNewsSentence
	}

	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteString("\n")
		}
		if item.Title != "" {
			fmt.Fprintf(&sb, "Новость %d: %s - %s (url: %s)", i+1, item.Title, item.Text, item.Link)
		} else {
			fmt.Fprintf(&sb, "Новость %d: %s", i+1, item.Link)
		}
	}
	return sb.String()
}

func renderSearchResults(results []search.Result) string {
	var sb strings.Builder
	for i, result := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Результат поиска %d: %s - %s (url: %s)", i+1, result.Title, result.Text, result.URL)
	}
	return sb.String()
}
