// marks-portal/internal/validation/validation.go
package validation

import (
	"errors"
	"html"
	"regexp"
	"strings"
)

// Единый модуль валидации: одни и те же правила применяются и к формам,
// и к API-запросам, чтобы две копии правил не расходились.

var lettersAndSpaces = regexp.MustCompile(`^[a-zA-Z\s]+$`)

var (
	ErrNameTooShort     = errors.New("Name must be at least 2 characters long")
	ErrNameInvalid      = errors.New("Name can only contain letters and spaces")
	ErrSubjectTooShort  = errors.New("Subject must be at least 2 characters long")
	ErrSubjectInvalid   = errors.New("Subject can only contain letters and spaces")
	ErrMarksOutOfRange  = errors.New("Marks must be between 0 and 100")
	ErrUsernameTooShort = errors.New("Username must be at least 3 characters long")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters long")
)

// Name нормализует и проверяет имя ученика: trim, экранирование HTML,
// длина не меньше 2, только буквы и пробелы.
func Name(raw string) (string, error) {
	name := html.EscapeString(strings.TrimSpace(raw))
	if len(name) < 2 {
		return "", ErrNameTooShort
	}
	if !lettersAndSpaces.MatchString(name) {
		return "", ErrNameInvalid
	}
	return name, nil
}

// Subject проверяет название предмета по тем же правилам, что и имя.
func Subject(raw string) (string, error) {
	subject := html.EscapeString(strings.TrimSpace(raw))
	if len(subject) < 2 {
		return "", ErrSubjectTooShort
	}
	if !lettersAndSpaces.MatchString(subject) {
		return "", ErrSubjectInvalid
	}
	return subject, nil
}

// Marks проверяет, что оценка лежит в диапазоне [0, 100].
func Marks(marks int) error {
	if marks < 0 || marks > 100 {
		return ErrMarksOutOfRange
	}
	return nil
}

// Username нормализует логин: trim, экранирование, длина не меньше 3.
func Username(raw string) (string, error) {
	username := html.EscapeString(strings.TrimSpace(raw))
	if len(username) < 3 {
		return "", ErrUsernameTooShort
	}
	return username, nil
}

// Password проверяет минимальную длину пароля.
func Password(raw string) error {
	if len(raw) < 6 {
		return ErrPasswordTooShort
	}
	return nil
}
