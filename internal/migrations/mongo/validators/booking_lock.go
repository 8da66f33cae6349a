package validators

import "go.mongodb.org/mongo-driver/bson"

// Lock ids are deterministic slot keys, not ObjectIDs, so a duplicate
// insert is what signals a held lock.
var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"expires_at", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
