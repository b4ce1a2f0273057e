package main

type config struct {
	Input          string `mapstructure:"input"`
	Output         string `mapstructure:"output"`
	LatitudeField  string `mapstructure:"lat_field"`
	LongitudeField string `mapstructure:"lon_field"`
}
