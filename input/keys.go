package input

// Recognized keys at each nested level (spec §6) — a closed set. A key
// reaching a directive dispatch site outside this set is a structural
// UnknownField error, never a silently ignored entry.
const (
	KeyWhere           = "where"
	KeyCreate          = "create"
	KeyUpdate          = "update"
	KeyConnect         = "connect"
	KeyDisconnect      = "disconnect"
	KeyDelete          = "delete"
	KeyConnectOrCreate = "connectOrCreate"
	KeyUpsert          = "upsert"
	KeyCreateMany      = "createMany"
	KeyUpdateMany      = "updateMany"
	KeyDeleteMany      = "deleteMany"
	KeySet             = "set"
)

var recognizedKeys = map[string]struct{}{
	KeyWhere: {}, KeyCreate: {}, KeyUpdate: {}, KeyConnect: {},
	KeyDisconnect: {}, KeyDelete: {}, KeyConnectOrCreate: {}, KeyUpsert: {},
	KeyCreateMany: {}, KeyUpdateMany: {}, KeyDeleteMany: {}, KeySet: {},
}

// IsRecognizedKey reports whether key belongs to the closed set of nested
// directive keys.
func IsRecognizedKey(key string) bool {
	_, ok := recognizedKeys[key]
	return ok
}
