package view

import (
	"strconv"
	"strings"
)

// PreserveQueryState troca (ou acrescenta) o parâmetro page e mantém todos os
// outros segmentos byte a byte, na ordem original. Não há re-encoding.
func PreserveQueryState(rawQuery string, page uint) string {
	target := ParamPage + "=" + strconv.FormatUint(uint64(page), 10)
	if rawQuery == "" {
		return target
	}

	segments := strings.Split(rawQuery, "&")
	replaced := false
	for i, segment := range segments {
		if strings.HasPrefix(segment, ParamPage+"=") {
			segments[i] = target
			replaced = true
		}
	}

	preserved := strings.Join(segments, "&")
	if !replaced {
		preserved += "&" + target
	}
	return preserved
}

// PreserveQueryStateWithPath é PreserveQueryState prefixado com "<path>?".
func PreserveQueryStateWithPath(path, rawQuery string, page uint) string {
	return path + "?" + PreserveQueryState(rawQuery, page)
}
