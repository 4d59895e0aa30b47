package aruco

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gocv.io/x/gocv"
)

var ErrUnknownDictionary = errors.New("aruco: unknown dictionary")

// Dictionary selects the predefined marker family to recognise.
type Dictionary gocv.ArucoDictionaryCode

const DefaultDictionary = Dictionary(gocv.ArucoDict6x6_250)

var dictionaries = map[string]Dictionary{
	"4x4_50":         Dictionary(gocv.ArucoDict4x4_50),
	"4x4_100":        Dictionary(gocv.ArucoDict4x4_100),
	"4x4_250":        Dictionary(gocv.ArucoDict4x4_250),
	"4x4_1000":       Dictionary(gocv.ArucoDict4x4_1000),
	"5x5_50":         Dictionary(gocv.ArucoDict5x5_50),
	"5x5_100":        Dictionary(gocv.ArucoDict5x5_100),
	"5x5_250":        Dictionary(gocv.ArucoDict5x5_250),
	"5x5_1000":       Dictionary(gocv.ArucoDict5x5_1000),
	"6x6_50":         Dictionary(gocv.ArucoDict6x6_50),
	"6x6_100":        Dictionary(gocv.ArucoDict6x6_100),
	"6x6_250":        Dictionary(gocv.ArucoDict6x6_250),
	"6x6_1000":       Dictionary(gocv.ArucoDict6x6_1000),
	"7x7_50":         Dictionary(gocv.ArucoDict7x7_50),
	"7x7_100":        Dictionary(gocv.ArucoDict7x7_100),
	"7x7_250":        Dictionary(gocv.ArucoDict7x7_250),
	"7x7_1000":       Dictionary(gocv.ArucoDict7x7_1000),
	"aruco_original": Dictionary(gocv.ArucoDictArucoOriginal),
	"apriltag_16h5":  Dictionary(gocv.ArucoDictAprilTag_16h5),
	"apriltag_25h9":  Dictionary(gocv.ArucoDictAprilTag_25h9),
	"apriltag_36h10": Dictionary(gocv.ArucoDictAprilTag_36h10),
	"apriltag_36h11": Dictionary(gocv.ArucoDictAprilTag_36h11),
}

// ParseDictionary resolves names like "6x6_250" or "DICT_6X6_250".
// An empty name selects DefaultDictionary.
func ParseDictionary(name string) (Dictionary, error) {
	if name == "" {
		return DefaultDictionary, nil
	}
	key := strings.ToLower(strings.TrimPrefix(strings.ToUpper(name), "DICT_"))
	d, ok := dictionaries[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownDictionary, name)
	}
	return d, nil
}

// ListDictionaries returns the accepted dictionary names, sorted.
func ListDictionaries() []string {
	names := make([]string, 0, len(dictionaries))
	for name := range dictionaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d Dictionary) String() string {
	if name, ok := lookup(d); ok {
		return name
	}
	return fmt.Sprintf("Dictionary(%d)", int(d))
}
