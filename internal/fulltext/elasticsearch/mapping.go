package elasticsearch

// DefaultIndexName is the default Elasticsearch index used for part documents.
const DefaultIndexName = "catalog_parts"

// buildIndexMapping returns the full JSON mapping for the parts index. The
// reference field carries a lowercase normalizer so exact lookups ignore case,
// and names get an edge_ngram autocomplete subfield.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "normalizer": {
        "reference_normalizer": {
          "type": "custom",
          "filter": ["lowercase"]
        }
      },
      "analyzer": {
        "autocomplete_analyzer": {
          "type": "custom",
          "tokenizer": "autocomplete_tokenizer",
          "filter": ["lowercase"]
        },
        "autocomplete_search": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase"]
        }
      },
      "tokenizer": {
        "autocomplete_tokenizer": {
          "type": "edge_ngram",
          "min_gram": 2,
          "max_gram": 20,
          "token_chars": ["letter", "digit"]
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":            { "type": "long" },
      "reference":     { "type": "keyword", "normalizer": "reference_normalizer" },
      "name":          { "type": "text", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 }, "autocomplete": { "type": "text", "analyzer": "autocomplete_analyzer", "search_analyzer": "autocomplete_search" } } },
      "description":   { "type": "text" },
      "category_id":   { "type": "long" },
      "category_name": { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "brand_id":      { "type": "long" },
      "brand_name":    { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
      "price":         { "type": "double" },
      "quality":       { "type": "keyword" },
      "availability":  { "type": "keyword" },
      "image_url":     { "type": "keyword", "index": false },
      "updated_at":    { "type": "date" }
    }
  }
}`
}
