package company

import "time"

// Company はテナントとなる人材会社エンティティです。データ分離の単位になります。
type Company struct {
	ID        string
	Name      string
	AdminID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
