// utilitário pequeno para formatação consistente de valores numéricos em headers.

package gate

import "strconv"

func formatInt(v int) string { return strconv.Itoa(v) }

func formatInt64(v int64) string { return strconv.FormatInt(v, 10) }
