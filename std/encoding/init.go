package encoding

var LOCALHOST = NewStringComponent(TypeGenericNameComponent, "localhost")
var LOCALHOP = NewStringComponent(TypeGenericNameComponent, "localhop")

// Initializes and registers component conventions automatically when the package is imported.
func init() {
	initComponentConventions()
}
