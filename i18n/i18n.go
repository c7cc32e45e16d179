package i18n

import (
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
)

var lang string

var translations = map[string]map[string]string{
	"Laser Tag: Free4All!": {
		"pt": "Laser Tag: Todos contra Todos!",
		"es": "Laser Tag: ¡Todos contra Todos!",
		"ru": "Лазертаг: Каждый за себя!",
	},
	"Press OK to start": {
		"pt": "Pressione OK para começar",
		"es": "Pulsa OK para empezar",
		"ru": "Нажмите OK, чтобы начать",
	},
	"GAME OVER!": {
		"pt": "FIM DE JOGO!",
		"es": "¡FIN DEL JUEGO!",
		"ru": "ИГРА ОКОНЧЕНА!",
	},
	"Press OK to Restart": {
		"pt": "Pressione OK para reiniciar",
		"es": "Pulsa OK para reiniciar",
		"ru": "Нажмите OK для рестарта",
	},
	"HP": {
		"ru": "ЖЗ",
	},
	"AMMO": {
		"pt": "MUNIÇÃO",
		"es": "MUNICIÓN",
		"ru": "ПАТРОНЫ",
	},
}

func init() {
	// Check for override environment variable
	if forcedLang := strings.TrimSpace(os.Getenv("LASERTAG_LANG")); forcedLang != "" {
		log.Printf("LASERTAG_LANG is set to: '%s'", forcedLang)
		lang = forcedLang
		return
	}

	userLocales, err := locale.GetLocales()
	if err != nil {
		log.Println("Could not get user locale, defaulting to english")
		lang = "en"
		return
	}

	if len(userLocales) > 0 {
		locale := userLocales[0]
		log.Printf("Detected user locale: %s", locale)
		if strings.HasPrefix(locale, "pt") {
			lang = "pt"
		} else if strings.HasPrefix(locale, "es") {
			lang = "es"
		} else if strings.HasPrefix(locale, "ru") {
			lang = "ru"
		} else {
			lang = "en"
		}
	} else {
		log.Println("No user locale detected, defaulting to english")
		lang = "en"
	}
	log.Printf("Language set to: %s", lang)
}

func T(key string) string {
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	return lang
}
