package repository

import "strings"

var stagedColumns = []string{
	"id",
	"request_id",
	"content_type",
	"checksum",
	"size",
	"data",
	"created_by",
	"created_at",
	"expires_at",
}

var selectStaged = "SELECT " + strings.Join(stagedColumns, ", ") + " FROM staged_images"
