// Package all registers every database and cache driver supported by the
// data layer.
//
//	import _ "github.com/ncobase/cookscorner/data/all"
package all

import (
	_ "github.com/ncobase/cookscorner/data/mysql"
	_ "github.com/ncobase/cookscorner/data/postgres"
	_ "github.com/ncobase/cookscorner/data/redis"
	_ "github.com/ncobase/cookscorner/data/sqlite"
)
