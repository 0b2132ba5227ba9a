package catalog

// ComparisonTable is a small static table contrasting models or algorithms,
// served as-is for the frontend to render.
type ComparisonTable struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Diagram is a Graphviz DOT definition the frontend renders client-side.
type Diagram struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	DOT  string `json:"dot"`
}

// Seed provides the default study content bundled with the tutor.
func Seed() ([]string, []ComparisonTable, []Diagram) {
	questions := []string{
		"What is overfitting in ML?",
		"Explain bias-variance tradeoff.",
		"Types of regression?",
		"Supervised vs. Unsupervised learning?",
	}

	comparisons := []ComparisonTable{
		{
			ID:      "ml-models",
			Name:    "ML Models",
			Columns: []string{"Model", "Accuracy", "Training Time"},
			Rows: [][]string{
				{"Linear Regression", "85", "Fast"},
				{"Decision Tree", "78", "Medium"},
				{"SVM", "82", "Slow"},
			},
		},
		{
			ID:      "algorithms",
			Name:    "Algorithms",
			Columns: []string{"Algorithm", "Scalability", "Use Case"},
			Rows: [][]string{
				{"K-Means", "High", "Clustering"},
				{"DBSCAN", "Medium", "Anomaly Detection"},
				{"Hierarchical", "Low", "Dendrogram Analysis"},
			},
		},
	}

	diagrams := []Diagram{
		{ID: "decision-tree", Name: "Decision Tree", DOT: "digraph G {A -> B; A -> C;}"},
		{ID: "neural-network", Name: "Neural Network", DOT: "digraph G {A -> B; B -> C; C -> D;}"},
		{ID: "k-means-clustering", Name: "K-Means Clustering", DOT: "digraph G {Cluster1 -> Point1; Cluster1 -> Point2; Cluster2 -> Point3;}"},
	}

	return questions, comparisons, diagrams
}
