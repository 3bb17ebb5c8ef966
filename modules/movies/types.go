// Package movies serves the read side of the catalog: movie listings and
// genre/director lookups. All routes require a valid bearer token.
package movies

import "go.mongodb.org/mongo-driver/v2/bson"

// Genre is a subdocument of Movie.
type Genre struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Director is a subdocument of Movie.
type Director struct {
	Name string `bson:"name" json:"name"`
	Bio  string `bson:"bio,omitempty" json:"bio,omitempty"`
}

// Movie is a catalog entry. Title is unique across the collection.
type Movie struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Genre       Genre         `bson:"genre" json:"genre"`
	Director    Director      `bson:"director" json:"director"`
	ImagePath   string        `bson:"image_path,omitempty" json:"imagePath,omitempty"`
	Featured    bool          `bson:"featured" json:"featured"`
}
