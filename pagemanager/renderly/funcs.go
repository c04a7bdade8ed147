package renderly

import "fmt"

// FuncMap returns the helper funcs every template gets. If names are given,
// only those helpers are returned.
func FuncMap(names ...string) map[string]interface{} {
	funcMap := map[string]interface{}{
		"map":       fnMap,
		"mapadd":    fnMapadd,
		"mapsplode": fnMapsplode,
		"slice":     fnSlice,
		"errorf":    fnErrorf,
	}
	if len(names) == 0 {
		return funcMap
	}
	customMap := make(map[string]interface{})
	for _, name := range names {
		if fn, ok := funcMap[name]; ok {
			customMap[name] = fn
		}
	}
	return customMap
}

func fnMap(keyvalues ...interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	isKey := true
	var key string
	for i, arg := range keyvalues {
		if arg, ok := arg.(mapsploded); ok {
			for k, v := range fnMap(arg.keyvalues...) {
				result[k] = v
			}
			continue
		}
		if isKey && i+1 == len(keyvalues) {
			// drop arg if it is a key and there are no more values
			break
		}
		if isKey {
			key = fmt.Sprint(arg)
		} else {
			result[key] = arg
		}
		isKey = !isKey
	}
	return result
}

func fnMapadd(base map[string]interface{}, args ...interface{}) map[string]interface{} {
	newbase := make(map[string]interface{})
	for key, value := range base {
		newbase[key] = value
	}
	for i := 0; i+1 < len(args); i += 2 {
		newbase[fmt.Sprint(args[i])] = args[i+1]
	}
	return newbase
}

type mapsploded struct {
	keyvalues []interface{}
}

func fnMapsplode(m map[string]interface{}, keys ...string) mapsploded {
	result := mapsploded{}
	if len(keys) == 0 {
		for k, v := range m {
			result.keyvalues = append(result.keyvalues, k, v)
		}
		return result
	}
	for _, k := range keys {
		if v, ok := m[k]; ok {
			result.keyvalues = append(result.keyvalues, k, v)
		}
	}
	return result
}

func fnSlice(a ...interface{}) []interface{} {
	return a
}

func fnErrorf(format string, a ...interface{}) (string, error) {
	return "", fmt.Errorf(format, a...)
}
