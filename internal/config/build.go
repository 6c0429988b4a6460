package config

// BuildSettings is the [build] table.
type BuildSettings struct {
	DoQuantization *bool   `toml:"do_quantization,omitempty" yaml:"do_quantization,omitempty" json:"do_quantization,omitempty"`
	Dataset        *string `toml:"dataset,omitempty" yaml:"dataset,omitempty" json:"dataset,omitempty" validate:"omitempty,nonempty"`
	RknnBatchSize  *int    `toml:"rknn_batch_size,omitempty" yaml:"rknn_batch_size,omitempty" json:"rknn_batch_size,omitempty" validate:"omitempty,gt=0"`
	AutoHybrid     *bool   `toml:"auto_hybrid,omitempty" yaml:"auto_hybrid,omitempty" json:"auto_hybrid,omitempty"`
}

func (BuildSettings) SectionName() string { return "build" }

func (b BuildSettings) Fields() []Field {
	return []Field{
		{Name: "do_quantization", Description: "Whether to quantize the model (default: true)", Value: opt(b.DoQuantization)},
		{Name: "dataset", Description: "Path to dataset file for quantization (default: None)", Value: opt(b.Dataset)},
		{Name: "rknn_batch_size", Description: "Batch size for inference (default: None)", Value: opt(b.RknnBatchSize)},
		{Name: "auto_hybrid", Description: "Enable automatic hybrid quantization (default: false)", Value: opt(b.AutoHybrid)},
	}
}

func (b BuildSettings) WithDefaults() BuildSettings {
	b.DoQuantization = orDefault(b.DoQuantization, true)
	b.AutoHybrid = orDefault(b.AutoHybrid, false)
	return b
}

func (b BuildSettings) Equal(o BuildSettings) bool { return fieldsEqual(b.Fields(), o.Fields()) }
