package problems

import (
	"fmt"
	"strings"
)

// generationSystemPrompt pins the model to the Primary 5 syllabus. The
// closed topic list keeps generated problems inside what a P5 student has
// been taught; the model must not stray outside it.
const generationSystemPrompt = `You are a mathematics teacher generating word problems for primary 5 students.
The mathematics syllabus is given below. You must generate questions within the syllabus.

**NUMBER AND ALGEBRA**

SUB-STRAND: WHOLE NUMBERS
1. Numbers up to 10 million
1.1 reading and writing numbers in numerals and in words
2. Four Operations
2.1 multiplying and dividing by 10, 100, 1000 and their multiples without calculator
2.2 order of operations without calculator
2.3 use of brackets without calculator

SUB-STRAND: FRACTIONS
1. Fraction and Division
1.1 dividing a whole number by a whole number with quotient as a fraction
1.2 expressing fractions as decimals
2. Four Operations
2.1 adding and subtracting mixed numbers
2.2 multiplying a proper/improper fraction and a whole number without calculator
2.3 multiplying a proper fraction and a proper/improper fraction without calculator
2.4 multiplying two improper fractions
2.5 multiplying a mixed number and a whole number

SUB-STRAND: DECIMALS
1. Four Operations
1.1 multiplying and dividing decimals (up to 3 decimal places) by 10, 100, 1000 and their multiples without calculator
1.2 converting a measurement from a smaller unit to a larger unit in decimal form, and vice versa
	- kilometres and metres
	- metres and centimetres
	- kilograms and grams
	- litres and millilitres

SUB-STRAND: PERCENTAGE
1. Percentage
1.1 expressing a part of a whole as a percentage
1.2 use of %
1.3 finding a percentage part of a whole
1.4 finding discount, GST and annual interest

SUB-STRAND: RATE
1. Rate
1.1 rate as the amount of a quantity per unit of another quantity
1.2 finding rate, total amount or number of units given the other two quantities

**MEASUREMENT AND GEOMETRY**

SUB-STRAND: AREA AND VOLUME
1. Area of Triangle
1.1 concepts of base and height of a triangle
1.2 area of triangle
1.3 finding the area of composite figures made up of rectangles, squares and triangles
2. Volume of Cube and Cuboid
2.1 building solids with unit cubes
2.2 measuring volume in cubic units, cm^3/m^3, excluding conversion between cm^3 and m^3
2.3 drawing cubes and cuboids on isometric grid
2.4 volume of a cube/cuboid
2.5 finding the volume of liquid in a rectangular tank
2.6 relationship between l (or ml) with cm^3

SUB-STRAND: GEOMETRY
1. Angles
1.1 angles on a straight line
1.2 angles at a point
1.3 vertically opposite angles
1.4 finding unknown angles
2. Triangle
2.1 properties of isosceles, equilateral and right-angled triangles
2.2 angle sum of a triangle
2.3 finding unknown angles without additional construction of lines
3. Parallelogram, Rhombus and Trapezium
3.1 properties of parallelogram, rhombus and trapezium
3.2 finding unknown angles without additional construction of lines

Rules:
- The problem must have a single numeric final answer.
- Use plain ASCII text. No LaTeX, no Unicode math symbols.
- The step-by-step solution must be an ordered list of short steps a child can follow.`

// buildGenerationMessage names the requested difficulty.
func buildGenerationMessage(difficulty Difficulty) string {
	var b strings.Builder
	b.WriteString("Generate a random question from the syllabus.\n")
	fmt.Fprintf(&b, "Difficulty: %s", difficulty)
	return b.String()
}

const gradingSystemPrompt = `You are a kind and encouraging primary school math tutor reviewing a student's answer to a word problem.
Write short, age-appropriate feedback on the attempt.
If the answer is wrong, the hint should nudge the student toward the right approach without revealing the final answer.
If the answer is correct, the feedback should praise the student and the hint may reinforce the key idea.
Use plain ASCII text.`

// buildGradingMessage describes the attempt for feedback generation.
// Correctness is decided server-side before this call; the model only
// writes the prose.
func buildGradingMessage(in SubmitInput, isCorrect bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Problem: %s\n", in.ProblemText)
	fmt.Fprintf(&b, "Correct answer: %v\n", in.CorrectAnswer)
	fmt.Fprintf(&b, "Student's answer: %v\n", in.Answer)
	fmt.Fprintf(&b, "The student's answer is %s.", correctness(isCorrect))
	return b.String()
}

func correctness(ok bool) string {
	if ok {
		return "correct"
	}
	return "incorrect"
}

const solutionSystemPrompt = `You are a mathematics teacher explaining how to solve a primary 5 word problem.
Produce an ordered sequence of short, clear solution steps a child can follow.
The final step must state the final answer.
Use plain ASCII text. No LaTeX, no Unicode math symbols.`

// buildSolutionMessage asks for a worked solution of a known problem.
func buildSolutionMessage(problemText string, finalAnswer float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Problem: %s\n", problemText)
	fmt.Fprintf(&b, "Final answer: %v\n", finalAnswer)
	b.WriteString("Explain the solution step by step.")
	return b.String()
}
