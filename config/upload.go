package config

type UploadConfig struct {
	AllowedMimeTypes []string // пусто - тип не проверяется
	MaxSizeMB        int64
}

var UploadContexts = map[string]UploadConfig{
	// Снимки из буфера обмена приходят как png, сохраняем всё равно в .jpg
	"order_image": {
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		MaxSizeMB:        10,
	},
	// Содержимое книги проверяет сам импортёр
	"order_workbook": {
		MaxSizeMB: 20,
	},
}
