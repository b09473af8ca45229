package places

import "restaurant-api/internal/common/validation"

// nearbySearchSchema only pins the shapes we read; unknown fields pass.
const nearbySearchSchema = `{
  "type": "object",
  "properties": {
    "status":        {"type": "string"},
    "error_message": {"type": "string"},
    "results": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "place_id": {"type": ["string", "null"]},
          "name":     {"type": ["string", "null"]},
          "rating":   {"type": ["number", "null"]},
          "types":    {"type": ["array", "null"], "items": {"type": "string"}},
          "geometry": {
            "type": ["object", "null"],
            "properties": {
              "location": {
                "type": ["object", "null"],
                "properties": {
                  "lat": {"type": "number"},
                  "lng": {"type": "number"}
                }
              }
            }
          },
          "photos": {
            "type": ["array", "null"],
            "items": {
              "type": "object",
              "properties": {
                "photo_reference": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var nearbySearchValidator = validation.MustNewValidator(nearbySearchSchema)
