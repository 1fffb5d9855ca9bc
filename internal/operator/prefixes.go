package operator

import "strconv"

var (
	jioPrefixes = []int{
		6000, 6001, 6002, 6003, 6004, 6005, 6006, 6007, 6008, 6009,
		7000, 7001, 7002, 7003, 7004, 7005, 7006, 7007, 7008, 7009,
		8000, 8001, 8002, 8003, 8004, 8005, 8006, 8007, 8008, 8009,
		9000, 9001, 9002, 9003, 9004, 9005, 9006, 9007, 9008, 9009,
	}

	airtelPrefixes = []int{
		6200, 6201, 6290, 7300, 7301, 7302, 7303, 7400, 7401, 7402,
		8100, 8101, 8102, 8103, 8104, 8400, 8401, 8402, 8403, 8404,
		9100, 9101, 9102, 9103, 9104, 9300, 9301, 9302, 9303, 9304,
	}

	viPrefixes = []int{
		6300, 6301, 6302, 6303, 7500, 7501, 7502, 7503, 7600, 7601,
		8200, 8201, 8202, 8203, 8500, 8501, 8502, 8503, 8600, 8601,
		9200, 9201, 9202, 9203, 9500, 9501, 9502, 9503, 9600, 9601,
	}

	bsnlPrefixes = []int{
		6100, 6101, 6102, 6103, 7700, 7701, 7702, 7703, 7800, 7801,
		8300, 8301, 8302, 8303, 8700, 8701, 8702, 8703, 8800, 8801,
		9400, 9401, 9402, 9403, 9700, 9701, 9702, 9703, 9800, 9801,
	}
)

// prefixes indexes every table. The tables are disjoint; buildIndex panics
// at init if that ever stops being true.
var prefixes = buildIndex(map[Operator][]int{
	Jio:    jioPrefixes,
	Airtel: airtelPrefixes,
	Vi:     viPrefixes,
	BSNL:   bsnlPrefixes,
})

func buildIndex(tables map[Operator][]int) map[int]Operator {
	idx := make(map[int]Operator)
	for op, list := range tables {
		for _, p := range list {
			if prev, dup := idx[p]; dup {
				panic("operator: prefix " + strconv.Itoa(p) + " assigned to both " + string(prev) + " and " + string(op))
			}
			idx[p] = op
		}
	}
	return idx
}
