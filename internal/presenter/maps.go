// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import "github.com/vorlif/spreak/localize"

// columns are the keys of the plan table columns in display order.
var columns = []string{"segment", "from", "to", "heading", "distance", "rotation", "traversal"}

// i18nVars maps label keys to their message IDs.
var i18nVars = map[string]localize.MsgID{
	"segment":   "Segment",
	"from":      "From",
	"to":        "To",
	"heading":   "Heading",
	"distance":  "Distance",
	"rotation":  "Rotation",
	"traversal": "Traversal",
	"total":     "Total",
}
