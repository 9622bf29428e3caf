package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/yuhfolio/src/models"
	"github.com/username/yuhfolio/src/parsers/yuh"
)

// Parser converts a raw brokerage export into normalized transactions.
type Parser interface {
	Parse(file io.Reader) ([]models.Transaction, error)
}

// GetParser returns the parser registered for the given broker source.
func GetParser(source string) (Parser, error) {
	switch strings.ToLower(source) {
	case "yuh":
		return yuh.NewParser(), nil
	default:
		return nil, fmt.Errorf("unsupported broker source: %s", source)
	}
}
