package models

import "time"

type Review struct {
	Id            string    `bson:"_id,omitempty" json:"id"`
	ProductId     string    `bson:"productId" json:"productId"`
	Comment       string    `bson:"comment" json:"comment"`
	Rating        int       `bson:"rating" json:"rating"`
	ReviewerName  string    `bson:"reviewerName" json:"reviewerName"`
	ReviewerEmail string    `bson:"reviewerEmail" json:"reviewerEmail"`
	Date          time.Time `bson:"date" json:"date"`
	AuthorId      string    `bson:"authorId,omitempty" json:"authorId,omitempty"`
}
