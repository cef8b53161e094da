package database

// Logical names of the blobs kept in kv_store. They match the keys the
// browser version of the tool used in localStorage.
const (
	ProblemsKey   = "mahjong_problems"
	CategoriesKey = "mahjong_categories"
	TitlesKey     = "mahjong_titles"
)

// entry is one row of kv_store.
type entry struct {
	Name    string `db:"name"`
	Payload string `db:"payload"`
}
