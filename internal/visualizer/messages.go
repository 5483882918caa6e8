package visualizer

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	msgPageTitle     = "Diff: %s"
	msgSummary       = "%d differences, %d lines added, %d lines removed"
	msgTruncated     = "binary content truncated in %d sections"
	msgDirectoryPage = "Diff: %s and %s"
)

var translations = map[language.Tag]map[string]string{
	language.Chinese: {
		msgPageTitle:     "差异：%s",
		msgSummary:       "%d 处差异，新增 %d 行，删除 %d 行",
		msgTruncated:     "%d 个二进制片段已截断",
		msgDirectoryPage: "差异：%s 与 %s",
	},
	language.Japanese: {
		msgPageTitle:     "差分: %s",
		msgSummary:       "%d 件の差分、%d 行追加、%d 行削除",
		msgTruncated:     "%d 個のバイナリ部分を省略しました",
		msgDirectoryPage: "差分: %s と %s",
	},
}

func newCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, key := range []string{msgPageTitle, msgSummary, msgTruncated, msgDirectoryPage} {
		_ = builder.SetString(language.English, key, key)
	}
	for tag, messages := range translations {
		for key, msg := range messages {
			_ = builder.SetString(tag, key, msg)
		}
	}
	return builder
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(newCatalog()))
}
