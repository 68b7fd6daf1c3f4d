// Package translate localizes the user-facing messages of ukern.
//
// Message catalogs are extracted from the From call sites with
// "go tool gotext -srclang=en-US update -lang=en-US ./...".
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// fallbackLocale is used when the host reports no locale at all.
const fallbackLocale = "en-US"

func load() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("ukern: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{fallbackLocale}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	printerOnce.Do(load)
	return printer.Sprintf(key, args...)
}
