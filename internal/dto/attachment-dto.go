package dto

// SavedImageDTO - ответ на сохранение снимка.
type SavedImageDTO struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

type FolderPathDTO struct {
	Path string `json:"path"`
}

// OpenedDTO - ответ ручек open-image / open-folder.
type OpenedDTO struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
}
