package constant

// Span attribute keys.
const (
	AttrDBSystem            = "db.system"
	AttrDBMongoDBCollection = "db.mongodb.collection"
	DBSystemMongoDB         = "mongodb"
	DBSystemRedis           = "redis"

	AttrEntryID       = "app.request.accounts_filing_id"
	AttrTransactionID = "app.request.transaction_id"
	AttrFileID        = "app.request.file_id"
	AttrPackageType   = "app.request.package_type"
	AttrPeerService   = "peer.service"
	AttrHTTPStatus    = "http.response.status_code"
)
