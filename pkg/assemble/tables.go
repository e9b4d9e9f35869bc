package assemble

import (
	"github.com/ssargent/xhfile/pkg/codec"
)

// channelLabels maps a chid code to a component label. 0 is "not a seismogram".
var channelLabels = map[int32]string{
	0: "",
	1: "Z",
	2: "N",
	3: "E",
	4: "R",
	5: "T",
}

// locationLabels maps a locc code to a location code.
var locationLabels = map[int32]string{
	9: "",
	0: "00",
	1: "10",
	2: "20",
	3: "30",
	4: "40",
	5: "50",
}

// ChannelLabel maps a chid code to its label.
func ChannelLabel(code int32) (string, error) {
	label, ok := channelLabels[code]
	if !ok {
		return "", codec.NewError(codec.KindUnmappedCode, -1, "channel code %d", code)
	}
	return label, nil
}

// LocationLabel maps a locc code to its label.
func LocationLabel(code int32) (string, error) {
	label, ok := locationLabels[code]
	if !ok {
		return "", codec.NewError(codec.KindUnmappedCode, -1, "location code %d", code)
	}
	return label, nil
}
