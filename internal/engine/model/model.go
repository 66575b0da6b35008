package model

import "time"

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/18 21:55
 * @file: model.go
 * @description: base model
 */

type BaseModel struct {
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
