package engine

type qTable struct {
	heights   int
	distances int
	actions   int
	data      [][][]float64
}

func newQTable(heights, distances, actions int) *qTable {
	data := make([][][]float64, heights)
	for h := 0; h < heights; h++ {
		data[h] = make([][]float64, distances)
		for d := 0; d < distances; d++ {
			data[h][d] = make([]float64, actions)
		}
	}
	return &qTable{heights: heights, distances: distances, actions: actions, data: data}
}

func (q *qTable) get(obs observation, action int) float64 {
	return q.data[obs.height][obs.distance][action]
}

func (q *qTable) set(obs observation, action int, value float64) {
	q.data[obs.height][obs.distance][action] = value
}

func (q *qTable) maxValue(obs observation) float64 {
	row := q.data[obs.height][obs.distance]
	max := row[0]
	for a := 1; a < q.actions; a++ {
		if row[a] > max {
			max = row[a]
		}
	}
	return max
}

// stateValues returns max_a Q indexed by [height band][distance band].
func (q *qTable) stateValues() [][]float64 {
	values := make([][]float64, q.heights)
	for h := 0; h < q.heights; h++ {
		values[h] = make([]float64, q.distances)
		for d := 0; d < q.distances; d++ {
			values[h][d] = q.maxValue(observation{height: h, distance: d})
		}
	}
	return values
}
