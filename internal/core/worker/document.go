package worker

import (
	"fmt"
	"strings"
	"time"
)

// Category は書類の分類です。
type Category string

const (
	CategoryPassport        Category = "passport"
	CategoryMedical         Category = "medical"
	CategoryPoliceClearance Category = "police-clearance"
	CategoryPhoto           Category = "photo"
	CategoryCV              Category = "cv"
	CategoryCitizenship     Category = "citizenship"
	CategoryVisa            Category = "visa"
	CategoryOther           Category = "other"
)

var categories = []Category{
	CategoryPassport,
	CategoryMedical,
	CategoryPoliceClearance,
	CategoryPhoto,
	CategoryCV,
	CategoryCitizenship,
	CategoryVisa,
	CategoryOther,
}

// NormalizeCategory は入力を固定の 8 分類に丸めます。未知の値は CategoryOther になります。
func NormalizeCategory(raw string) Category {
	normalized := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, c := range categories {
		if c == normalized {
			return c
		}
	}
	return CategoryOther
}

// DocumentStatus は書類の確認状態を表します。
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// Document はワーカーに付随する書類レコードです。ワーカー以外から参照されることはありません。
type Document struct {
	Category   Category       `json:"category"`
	Name       string         `json:"name"`
	FileName   string         `json:"fileName"`
	FileSize   string         `json:"fileSize"`
	FileURL    string         `json:"fileUrl"`
	UploadedAt time.Time      `json:"uploadedAt"`
	Status     DocumentStatus `json:"status"`
}

// Attachment はワーカー登録時に提出される書類 1 件の入力です。
// FileURL はストレージ上の保存先を示す不透明な文字列として扱います。
type Attachment struct {
	FileName  string
	SizeBytes int64
	FileURL   string
	Category  string
	Label     string
}

// ClassifyAttachments は提出順を保ったまま Attachment 列を Document 列へ正規化します。
// ラベル未指定時はファイル名を採用し、サイズは MB 単位・小数第 2 位で記録します。
// 同一分類の重複は許容されます。
func ClassifyAttachments(attachments []Attachment, now time.Time) []Document {
	if len(attachments) == 0 {
		return nil
	}

	documents := make([]Document, 0, len(attachments))
	for _, a := range attachments {
		name := strings.TrimSpace(a.Label)
		if name == "" {
			name = a.FileName
		}

		documents = append(documents, Document{
			Category:   NormalizeCategory(a.Category),
			Name:       name,
			FileName:   a.FileName,
			FileSize:   formatFileSize(a.SizeBytes),
			FileURL:    a.FileURL,
			UploadedAt: now,
			Status:     DocumentStatusPending,
		})
	}
	return documents
}

func formatFileSize(sizeBytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(sizeBytes)/1024/1024)
}
