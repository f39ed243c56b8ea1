package sanitize

import (
	"reflect"
	"testing"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "YandexGPT. Главный кампус ИТМО находится в Санкт-Петербурге.",
			expected: "YandexGPT. Главный кампус ИТМО находится в Санкт-Петербурге.",
		},
		{
			name:     "trims whitespace",
			input:    "  ответ  \n",
			expected: "ответ",
		},
		{
			name:     "removes block comments",
			input:    "до /* комментарий */ после",
			expected: "до  после",
		},
		{
			name:     "drops line comments",
			input:    "первая строка\n// комментарий\nвторая строка",
			expected: "первая строка\nвторая строка",
		},
		{
			name:     "drops TODO lines",
			input:    "ответ\nTODO: доделать\nконец",
			expected: "ответ\nконец",
		},
		{
			name:     "drops suspicious keyword lines case-insensitively",
			input:    "ответ\nImport os\nUSAGE: run this\nконец",
			expected: "ответ\nконец",
		},
		{
			name:     "collapses blank line runs",
			input:    "один\n\n\n\nдва",
			expected: "один\nдва",
		},
		{
			name:     "everything stripped yields empty",
			input:    "// only a comment\nTODO",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.expected {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTextIdempotent(t *testing.T) {
	inputs := []string{
		"обычный текст",
		"до /* x */ после\n\nи ещё\n// комментарий\nконец",
		"  \n\n  ",
		"ответ\nError: something\nTODO later\nфинал",
		"многострочный\n\n\nтекст\nс пробелами   ",
	}

	for _, in := range inputs {
		once := Text(in)
		twice := Text(once)
		if once != twice {
			t.Errorf("Text not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestIsURL(t *testing.T) {
	valid := []string{
		"https://itmo.ru",
		"http://example.com/path?q=1",
		"HTTPS://ITMO.RU",
		"ftp://files.example.com",
		"ftps://files.example.com",
	}
	for _, u := range valid {
		if !IsURL(u) {
			t.Errorf("IsURL(%q) = false, want true", u)
		}
	}

	invalid := []string{
		"",
		"itmo.ru",
		"www.itmo.ru",
		"https://",
		"https:// itmo.ru",
		"смотрите https://itmo.ru",
		"mailto:admin@itmo.ru",
	}
	for _, u := range invalid {
		if IsURL(u) {
			t.Errorf("IsURL(%q) = true, want false", u)
		}
	}
}

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{
			input:    "см. https://itmo.ru и https://news.itmo.ru/ru/1",
			expected: []string{"https://itmo.ru", "https://news.itmo.ru/ru/1"},
		},
		{
			input:    "никаких ссылок здесь нет",
			expected: nil,
		},
		{
			input:    "http://a.example в середине текста",
			expected: []string{"http://a.example"},
		},
	}

	for _, tt := range tests {
		if got := ExtractURLs(tt.input); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("ExtractURLs(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
