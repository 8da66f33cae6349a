package validators

import "go.mongodb.org/mongo-driver/bson"

var CastleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"slug",
			"base_price",
			"capacity",
			"active",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"slug": bson.M{
				"bsonType": "string",
				"pattern":  `^[a-z0-9]+(-[a-z0-9]+)*$`,
			},

			"theme": bson.M{
				"bsonType":  "string",
				"maxLength": 50,
			},

			"base_price": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  50,
			},

			"available_days": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
					"enum": []string{
						"monday", "tuesday", "wednesday", "thursday",
						"friday", "saturday", "sunday",
					},
				},
			},

			"hire_window": bson.M{
				"bsonType": "object",
				"required": []string{"open", "close"},
				"properties": bson.M{
					"open": bson.M{
						"bsonType": "string",
						"pattern":  `^([01][0-9]|2[0-3]):[0-5][0-9]$`,
					},
					"close": bson.M{
						"bsonType": "string",
						"pattern":  `^([01][0-9]|2[0-3]):[0-5][0-9]$`,
					},
				},
			},

			"active": bson.M{
				"bsonType": "bool",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
