package tui

import (
	"fmt"
	"slices"
	"strings"
)

// Supported interface languages.
const (
	LangEN = "en"
	LangRU = "ru"
)

// catalogue holds every label per language. Keys ending in ".short" are
// the compact forms drawn inside falling blocks.
var catalogue = map[string]map[string]string{
	LangEN: {
		"step.requirements":            "Get requirements",
		"step.requirements.short":      "REQS",
		"step.branch":                  "Create branch",
		"step.branch.short":            "BRANCH",
		"step.code":                    "Write code",
		"step.code.short":              "CODE",
		"step.tests":                   "Write tests",
		"step.tests.short":             "TESTS",
		"step.fix-bugs":                "Fix bugs",
		"step.fix-bugs.short":          "FIXES",
		"step.resolve-conflicts":       "Resolve conflicts",
		"step.resolve-conflicts.short": "CONFL",
		"step.mr-approvals":            "Get MR approvals",
		"step.mr-approvals.short":      "MR OK",
		"step.merge-main":              "Merge to main",
		"step.merge-main.short":        "MERGE",
		"step.deploy-prod":             "Deploy to prod",
		"step.deploy-prod.short":       "PROD",
		"bad.bug":                      "Bug",
		"bad.bug.short":                "BUG",
		"bad.infra":                    "Infra",
		"bad.infra.short":              "INFRA",
		"heal.fix-bug":                 "Fix bug",
		"heal.fix-bug.short":           "PATCH",
		"heal.fix-infra":               "Fix infra",
		"heal.fix-infra.short":         "OPS",
		"time.bonus":                   "Extra time",
		"time.bonus.short":             "+TIME",

		"ui.too-small":      "Terminal too small, need at least",
		"ui.time":           "TIME",
		"ui.score":          "Score",
		"ui.combo":          "Combo",
		"ui.blocked":        "BLOCKED:",
		"ui.next":           "Goal:",
		"ui.pipeline":       "Order of blocks",
		"ui.cycles":         "Cycles",
		"ui.mistakes":       "Mistakes",
		"ui.seed":           "Seed",
		"ui.title":          "DEPLOY OR DIE",
		"ui.rules.catch":    "Catch the tasks in the right order",
		"ui.rules.avoid":    "Skip the rest, dodge bugs",
		"ui.rules.controls": "Arrows/mouse move, P pause",
		"ui.press-start":    "SPACE to start",
		"ui.fail":           "Time's up!",
		"ui.success":        "Deployed!",
		"ui.restart":        "R again  B menu  Q quit",
		"ui.paused":         "PAUSED",
		"ui.resume":         "P to resume",

		"menu.title":      "D E P L O Y   O R   D I E",
		"menu.subtitle":   "Select a mode",
		"menu.controls":   "Up/Down: Navigate  |  Enter: Select  |  Tab: Results  |  Q: Quit",
		"scores.title":    "RESULTS",
		"scores.empty":    "No results yet.\nPlay a game to see your scores here.",
		"scores.rank":     "Rank",
		"scores.player":   "Player",
		"scores.score":    "Score",
		"scores.cycles":   "Cycles",
		"scores.date":     "Date",
		"scores.mode":     "Mode",
		"scores.top":      "Top",
		"scores.mine":     "Mine",
		"scores.stats":    "%d games, %d deployed, best %d",
		"result.deployed": "deployed",
		"result.failed":   "failed",
	},
	LangRU: {
		"step.requirements":            "Собрать требования",
		"step.requirements.short":      "ТЗ",
		"step.branch":                  "Создать ветку",
		"step.branch.short":            "ВЕТКА",
		"step.code":                    "Написать код",
		"step.code.short":              "КОД",
		"step.tests":                   "Написать тесты",
		"step.tests.short":             "ТЕСТЫ",
		"step.fix-bugs":                "Починить баги",
		"step.fix-bugs.short":          "ФИКСЫ",
		"step.resolve-conflicts":       "Разрешить конфликты",
		"step.resolve-conflicts.short": "КОНФЛ",
		"step.mr-approvals":            "Получить апрувы MR",
		"step.mr-approvals.short":      "АПРУВ",
		"step.merge-main":              "Влить в main",
		"step.merge-main.short":        "МЕРЖ",
		"step.deploy-prod":             "Деплой в прод",
		"step.deploy-prod.short":       "ПРОД",
		"bad.bug":                      "Баг",
		"bad.bug.short":                "БАГ",
		"bad.infra":                    "Инфра",
		"bad.infra.short":              "ИНФРА",
		"heal.fix-bug":                 "Исправить баг",
		"heal.fix-bug.short":           "ПАТЧ",
		"heal.fix-infra":               "Исправить инфру",
		"heal.fix-infra.short":         "ОПС",
		"time.bonus":                   "Доп. время",
		"time.bonus.short":             "+ВРЕМЯ",

		"ui.too-small":      "Терминал слишком мал, нужно минимум",
		"ui.time":           "Время",
		"ui.score":          "Очки",
		"ui.combo":          "Комбо",
		"ui.blocked":        "Заблокировано:",
		"ui.next":           "Цель:",
		"ui.pipeline":       "Порядок блоков",
		"ui.cycles":         "Циклы",
		"ui.mistakes":       "Ошибки",
		"ui.seed":           "Сид",
		"ui.title":          "DEPLOY OR DIE",
		"ui.rules.catch":    "Лови задачи в правильном порядке",
		"ui.rules.avoid":    "Пропускай лишнее, избегай багов",
		"ui.rules.controls": "Стрелки/мышь, P пауза",
		"ui.press-start":    "ПРОБЕЛ, чтобы начать",
		"ui.fail":           "Время вышло!",
		"ui.success":        "Цикл завершен!",
		"ui.restart":        "R ещё  B меню  Q выход",
		"ui.paused":         "ПАУЗА",
		"ui.resume":         "P продолжить",

		"menu.title":      "D E P L O Y   O R   D I E",
		"menu.subtitle":   "Выберите режим",
		"menu.controls":   "Вверх/Вниз: выбор  |  Enter: играть  |  Tab: результаты  |  Q: выход",
		"scores.title":    "РЕЗУЛЬТАТЫ",
		"scores.empty":    "Пока нет результатов.\nСыграйте игру, чтобы увидеть свои баллы здесь.",
		"scores.rank":     "Место",
		"scores.player":   "Игрок",
		"scores.score":    "Очки",
		"scores.cycles":   "Циклы",
		"scores.date":     "Дата",
		"scores.mode":     "Режим",
		"scores.top":      "Лучшие",
		"scores.mine":     "Мои",
		"scores.stats":    "игр: %d, деплоев: %d, рекорд %d",
		"result.deployed": "деплой",
		"result.failed":   "провал",
	},
}

// Languages returns the supported language codes, sorted.
func Languages() []string {
	langs := make([]string, 0, len(catalogue))
	for l := range catalogue {
		langs = append(langs, l)
	}
	slices.Sort(langs)
	return langs
}

// ParseLang normalizes a language code such as "ru_RU.UTF-8" or "EN".
func ParseLang(s string) (string, error) {
	code := strings.ToLower(s)
	if i := strings.IndexAny(code, "_-."); i >= 0 {
		code = code[:i]
	}
	if _, ok := catalogue[code]; !ok {
		return "", fmt.Errorf("unknown language %q (supported: %s)", s, strings.Join(Languages(), ", "))
	}
	return code, nil
}

// Labels returns a lookup for the language. Keys missing from it fall back
// to English, then to "".
func Labels(lang string) func(key string) string {
	primary, ok := catalogue[lang]
	if !ok {
		primary = catalogue[LangEN]
	}
	fallback := catalogue[LangEN]
	return func(key string) string {
		if s, ok := primary[key]; ok {
			return s
		}
		return fallback[key]
	}
}
