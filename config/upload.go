package config

// UploadConfig описывает, что может содержать multipart-загрузка данного типа.
type UploadConfig struct {
	AllowedMimeTypes  []string
	AllowedExtensions []string
	MaxSizeMB         int64
	PathPrefix        string
}

var UploadContexts = map[string]UploadConfig{
	// Документы для приёма сотрудника, одним архивом к заявке.
	"employee_document": {
		AllowedMimeTypes:  []string{"application/zip", "application/x-zip-compressed"},
		AllowedExtensions: []string{".zip"},
		MaxSizeMB:         10,
		PathPrefix:        "doc",
	},
}
