package dto

// FileUpload - файл, уже прочитанный из multipart и проверенный по содержимому
type FileUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
