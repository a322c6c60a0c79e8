// Package fuzztests houses Go fuzz harnesses for the spec front-ends and
// the generation chain behind them. Inputs go through the YAML and TOML
// parsers; whatever validates must also plan and render.
//
// Назначение: ловить паники и зависания на произвольных спецификациях.
//
// Не делает: запись файлов, работу с кэшем, выполнение CLI.
package fuzztests
