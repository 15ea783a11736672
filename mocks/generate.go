package mocks

//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/strategy Strategy
//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/marcusgoll/robinhood-algo-trading-bot-sub001/internal/datasource DataSource
