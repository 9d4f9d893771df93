package codeblock

// DefaultBlocks returns the built-in exercises served when no catalogue
// database is configured.
func DefaultBlocks() []CodeBlock {
	return []CodeBlock{
		{
			ID:       1,
			Title:    "Async/Await in JavaScript",
			Template: "async function fetchData() { const response = await fetch('https://api.example.com'); return response.json(); }",
			Solution: "async function fetchData() { const response = await fetch('https://api.example.com'); const data = await response.json(); return data; }",
		},
		{
			ID:       2,
			Title:    "Closures and Private Variables",
			Template: "function createCounter() { let count = 0; return function() { count++; return count; }; }",
			Solution: "function createCounter() { let count = 0; return function() { count++; return count; }; }",
		},
		{
			ID:       3,
			Title:    "Promises with Error Handling",
			Template: "function fetchData() { return new Promise((resolve, reject) => { if (dataExists) { resolve('Data fetched'); } else { reject('Error'); } }); }",
			Solution: "function fetchData() { return new Promise((resolve, reject) => { if (dataExists) { resolve('Data fetched'); } else { reject('Error: No data available'); } }); }",
		},
		{
			ID:       4,
			Title:    "Callback Functions in JavaScript",
			Template: "function processData(data, callback) { callback(data); }",
			Solution: "function processData(data, callback) { if (data) { callback(null, data); } else { callback('Error: No data'); } }",
		},
		{
			ID:       5,
			Title:    "Event Loop and Call Stack",
			Template: "console.log('Start'); setTimeout(() => { console.log('Delayed Message'); }, 1000); console.log('End');",
			Solution: "console.log('Start'); setTimeout(() => { console.log('Delayed Message'); }, 1000); console.log('End');",
		},
		{
			ID:       6,
			Title:    "Array Methods - Map and Filter",
			Template: "const numbers = [1, 2, 3, 4]; const squaredNumbers = numbers.map(num => num * num);",
			Solution: "const numbers = [1, 2, 3, 4]; const squaredNumbers = numbers.map(num => num * num); const evenNumbers = numbers.filter(num => num % 2 === 0);",
		},
	}
}
