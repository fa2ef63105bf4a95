package main

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

type resultJSON struct {
	TotalRecords int64            `json:"totalRecords"`
	Records      uifilter.Records `json:"records"`
}

// writeResult writes result as indented JSON, in the shape table widgets expect for lazy loading.
func writeResult(w io.Writer, result uifilter.Result) error {
	records := result.Records
	if records == nil {
		records = uifilter.Records{}
	}

	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(resultJSON{TotalRecords: result.TotalRecords, Records: records})
}
