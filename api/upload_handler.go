package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/himashiprops/estate-backend/utils"
)

const (
	maxImageSize = 10 << 20  // 10 MB
	maxVideoSize = 200 << 20 // 200 MB
	maxImages    = 10
)

type uploadedFile struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	MimeType string `json:"mimetype"`
	Size     int64  `json:"size"`
}

// storeUpload pushes one multipart file to S3 under uploads/<kind>/ and
// returns its presigned URL.
func storeUpload(r *http.Request, header *multipart.FileHeader, kind string) (*uploadedFile, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	objectKey := fmt.Sprintf("uploads/%s/%s%s", kind, uuid.New().String(), strings.ToLower(filepath.Ext(header.Filename)))

	if _, err := utils.UploadFileToS3(r.Context(), file, objectKey, contentType); err != nil {
		return nil, err
	}

	url, err := utils.GetPresignedURL(r.Context(), objectKey)
	if err != nil {
		return nil, err
	}

	return &uploadedFile{
		Key:      objectKey,
		URL:      url,
		MimeType: contentType,
		Size:     header.Size,
	}, nil
}

// UploadImageHandler accepts a single image under the "file" form field,
// capped at 10 MB.
func UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Upload Image API]")

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		utils.RespondError(w, &logMessageBuilder, "File too large or invalid form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "No file uploaded", http.StatusBadRequest)
		return
	}
	file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		utils.RespondError(w, &logMessageBuilder, "Only image files are allowed", http.StatusBadRequest)
		return
	}

	uploaded, err := storeUpload(r, header, "images")
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("S3 upload failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Upload failed", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Uploaded %s (%d bytes)", uploaded.Key, uploaded.Size))
	utils.RespondJSON(w, http.StatusCreated, uploaded)
}

// UploadImagesHandler accepts up to 10 images under the "files" form field.
func UploadImagesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Upload Images API]")

	r.Body = http.MaxBytesReader(w, r.Body, maxImages*maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Files too large or invalid form", http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		utils.RespondError(w, &logMessageBuilder, "No files uploaded", http.StatusBadRequest)
		return
	}
	if len(headers) > maxImages {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("At most %d images per request", maxImages), http.StatusBadRequest)
		return
	}

	for _, header := range headers {
		if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
			utils.RespondError(w, &logMessageBuilder, "Only image files are allowed", http.StatusBadRequest)
			return
		}
		if header.Size > maxImageSize {
			utils.RespondError(w, &logMessageBuilder, "File too large", http.StatusBadRequest)
			return
		}
	}

	uploads := make([]*uploadedFile, 0, len(headers))
	for _, header := range headers {
		uploaded, err := storeUpload(r, header, "images")
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("S3 upload failed: %v", err))
			utils.RespondError(w, &logMessageBuilder, "Upload failed", http.StatusInternalServerError)
			return
		}
		uploads = append(uploads, uploaded)
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Uploaded %d images", len(uploads)))
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"files": uploads})
}

// UploadVideoHandler accepts a single video under the "file" form field,
// capped at 200 MB.
func UploadVideoHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() { fmt.Println(logMessageBuilder.String()) }()
	utils.AddToLogMessage(&logMessageBuilder, "[Upload Video API]")

	r.Body = http.MaxBytesReader(w, r.Body, maxVideoSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondError(w, &logMessageBuilder, "File too large or invalid form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "No file uploaded", http.StatusBadRequest)
		return
	}
	file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "video/") {
		utils.RespondError(w, &logMessageBuilder, "Only video files are allowed", http.StatusBadRequest)
		return
	}

	uploaded, err := storeUpload(r, header, "videos")
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("S3 upload failed: %v", err))
		utils.RespondError(w, &logMessageBuilder, "Upload failed", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Uploaded %s (%d bytes)", uploaded.Key, uploaded.Size))
	utils.RespondJSON(w, http.StatusCreated, uploaded)
}
