package settings

import "errors"

var errDirectoryPath = errors.New("database file must name a file, not a directory")
